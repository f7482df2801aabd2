//go:build js && wasm
// +build js,wasm

package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strconv"
	"syscall/js"

	"github.com/amane-katagiri/jelatofish/internal/pipeline"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// renderFish is called from JavaScript to render one fish entirely
// in-browser. Arguments: seed (string, to keep 64-bit seeds exact) and
// an optional size in pixels. Returns the PNG as base64 together with
// the canonical filename, or an error message.
func renderFish(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "missing arguments"}
	}

	seed, err := strconv.ParseInt(args[0].String(), 10, 64)
	if err != nil {
		return map[string]interface{}{"error": fmt.Sprintf("failed to parse seed: %v", err)}
	}

	size := pipeline.DefaultSize
	if len(args) > 1 {
		size = args[1].Int()
	}

	gen, err := pipeline.NewGenerator(pipeline.Config{
		Size: types.Area{Width: size, Height: size},
	})
	if err != nil {
		return map[string]interface{}{"error": fmt.Sprintf("failed to init generator: %v", err)}
	}

	img, _, err := gen.Render(seed)
	if err != nil {
		return map[string]interface{}{"error": fmt.Sprintf("failed to render fish: %v", err)}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return map[string]interface{}{"error": fmt.Sprintf("failed to encode fish: %v", err)}
	}

	return map[string]interface{}{
		"filename": pipeline.FishFileName(seed),
		"png":      base64.StdEncoding.EncodeToString(buf.Bytes()),
	}
}

// initFish is called on page load to confirm the module is ready.
func initFish(this js.Value, args []js.Value) interface{} {
	fmt.Println("Jelatofish WASM module initialized")
	return map[string]interface{}{"status": "ready"}
}

func main() {
	c := make(chan struct{})

	js.Global().Set("jelatofishRender", js.FuncOf(renderFish))
	js.Global().Set("jelatofishInit", js.FuncOf(initFish))

	fmt.Println("Jelatofish WASM module loaded")
	<-c
}
