package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"timer2ticket.app/gateway/tools/linters/enumvalidator"
)

func main() {
	singlechecker.Main(enumvalidator.Analyzer)
}
