package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	imageloader "github.com/manzt/vitessce-image-loader"
	"github.com/manzt/vitessce-image-loader/zarr"
)

func main() {
	dir := flag.String("dir", "", "directory holding the zarr data")
	endpoint := flag.String("url", "", "base url of an http zarr store")
	arrays := flag.String("arrays", "", "comma-separated array paths, base level first")
	flag.Parse()

	var store zarr.Store
	var err error
	switch {
	case *dir != "":
		store, err = zarr.NewDirectoryStore(*dir)
	case *endpoint != "":
		var base *url.URL
		base, err = url.Parse(*endpoint)
		if err == nil {
			store = zarr.NewHTTPStore(base, nil)
		}
	default:
		fmt.Println("must specify either -dir or -url")
		os.Exit(1)
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	var paths []string
	for _, p := range strings.Split(*arrays, ",") {
		paths = append(paths, strings.TrimSpace(p))
	}

	ctx := context.Background()
	pyramid, err := zarr.OpenPyramid(ctx, store, paths...)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	for i, level := range pyramid {
		arr := level.(*zarr.Array)
		fmt.Printf("Level %d\n", i)
		fmt.Printf("\tShape: %v\n", arr.Shape())
		fmt.Printf("\tChunks: %v\n", arr.ChunkShape())
		fmt.Printf("\tDtype: %s (%s)\n", arr.DataType(), arr.Meta().DType)
		if c := arr.Meta().Compressor; c != nil {
			fmt.Printf("\tCompressor: %s (level %d)\n", c.ID, c.Level)
		} else {
			fmt.Printf("\tCompressor: none\n")
		}
	}

	loader, err := imageloader.New(pyramid)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Printf("Loader: levels=%d interleaved=%v packedChannels=%v\n",
		loader.Levels(), loader.Interleaved(), loader.PackedChannels())
}
