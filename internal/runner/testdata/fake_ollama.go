// fake_ollama stands in for the ollama CLI in tests. Behavior is selected
// with FAKE_OLLAMA_MODE.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	args := os.Args[1:]
	last := ""
	if len(args) > 0 {
		last = args[len(args)-1]
	}
	switch os.Getenv("FAKE_OLLAMA_MODE") {
	case "args":
		_ = json.NewEncoder(os.Stdout).Encode(args)
	case "fail":
		fmt.Fprintln(os.Stderr, "Error: pull model manifest: file does not exist")
		os.Exit(3)
	case "sleep":
		time.Sleep(30 * time.Second)
		fmt.Println("too late")
	case "binary":
		os.Stdout.Write([]byte("ok \xff\xfe done\n"))
	case "big":
		fmt.Print(strings.Repeat("x", 10000))
	case "silent":
	default:
		fmt.Printf("  %s  \n", last)
	}
}
