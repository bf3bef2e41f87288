// Command hash-generator prints the bcrypt hash of an API key so it can be
// set as secret.api_key_hash.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/phrazzld/storefront-api/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	keys := flag.Args()
	if len(keys) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost N] <api-key>...")
		os.Exit(2)
	}

	failed := false
	for _, key := range keys {
		hash, err := auth.HashSecret(key, *cost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating hash: %v\n", err)
			failed = true
			continue
		}
		fmt.Println(hash)
	}
	if failed {
		os.Exit(1)
	}
}
