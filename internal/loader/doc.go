// Package loader reads memory blocks from SafeTensors files.
//
// Every tensor in a file becomes a tensor.Block owned by the file. Per-tensor
// entries in the __metadata__ map are attached to the block:
//
//	"<tensor>.rendering_method": "RGB"
//	"<tensor>.min_value_hint":   "-1"
//	"<tensor>.max_value_hint":   "1"
//
// The rendering method is used by an observer until a method is chosen
// explicitly; the value hints seed its inherited bounds. With
// Options.AutoHints the hints are computed from the data instead.
//
// Files are memory-mapped; only the header is parsed when a reader opens.
// WriteBlocks stores blocks, their metadata and their finite value hints in
// the same layout, so OpenBlocks restores them.
//
// Example:
//
//	blocks, err := loader.OpenBlocks("activations.safetensors", loader.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, b := range blocks {
//	    fmt.Println(b.Name(), b.Shape())
//	}
package loader
