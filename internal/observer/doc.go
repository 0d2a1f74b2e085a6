// Package observer lays out memory blocks as 2D textures and selects the
// kernel that paints them.
//
// The layout rules are:
//   - vectors of up to SmallVectorLimit elements become a single row or column,
//     longer vectors a near-square texture;
//   - matrix-like blocks use their first extent as the width and fold every
//     other extent into the height, after dividing the last extent by the
//     number of elements one pixel consumes (3 for RGB, the vector element
//     count for Vector);
//   - a DimensionHint such as "2, *, 3" reshapes the block first;
//   - tiled observation arranges equally shaped tiles in a grid.
//
// Mismatches never abort rendering: they produce a fallback layout and a
// Warning. Only invalid configuration is reported as an error.
package observer
