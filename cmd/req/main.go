package main

import (
	"os"

	"github.com/HexmosTech/req"
	_ "github.com/mtibben/androiddnsfix"
)

func main() {
	if err := req.Main(&req.Options{}); err != nil {
		os.Exit(req.ExitCode(err))
	}
}
