// Command eventschema prints the JSON Schema of the event payload the gateway
// posts to core.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"timer2ticket.app/gateway/internal/dispatch"
)

func main() {
	out, err := json.MarshalIndent(dispatch.PayloadSchema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
