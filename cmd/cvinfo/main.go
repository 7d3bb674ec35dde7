// Command cvinfo reports the binding and OpenCV versions and checks that the
// native library can be opened with a given config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hsiuhsiu/opencv-go/pkg/cv"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	schema := flag.Bool("schema", false, "print the config JSON Schema and exit")
	flag.Parse()

	if *schema {
		out, err := cv.ConfigSchema()
		if err != nil {
			log.Fatalf("schema: %v", err)
		}
		os.Stdout.Write(append(out, '\n'))
		return
	}

	log.Printf("opencv-go version: %s", cv.WrapperVersion())
	log.Printf("opencv: %s (%s)", cv.NativeVersion(), cv.NativeLibName)

	cfg := cv.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = cv.LoadConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	lib, err := cv.Open(cfg)
	if err != nil {
		if errors.Is(err, cv.ErrNotBuilt) {
			fmt.Printf("library unavailable: %v\n", err)
			return
		}
		log.Fatalf("unexpected failure opening library: %v", err)
	}
	defer func() {
		if cerr := lib.Close(); cerr != nil {
			log.Printf("close error: %v", cerr)
		}
	}()

	fmt.Printf("threads: %d\n", core.NumThreads())
	fmt.Printf("optimized: %t\n", core.UseOptimized())
	fmt.Printf("cuda devices: %d\n", core.CUDADeviceCount())
}
