// Package main provides the alibi kernel module CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("alibi kernels %s\n", version)
		return
	}

	fmt.Println("alibi - ALiBi attention-bias kernels for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/bias for library usage.")
}
