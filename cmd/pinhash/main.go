// pinhash prints the bcrypt hash of a station PIN, for use as KDS_PIN_HASH.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kiwari-pos/kds/internal/auth"
)

func main() {
	pin := pflag.String("pin", "", "station PIN (read from stdin when empty)")
	pflag.Parse()

	// Fall back to environment, then stdin
	if *pin == "" {
		*pin = os.Getenv("KDS_PIN")
	}
	if *pin == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("read pin: %v", err)
		}
		*pin = strings.TrimSpace(line)
	}

	hash, err := auth.HashPIN(*pin)
	if err != nil {
		log.Fatalf("hash pin: %v", err)
	}
	fmt.Println(hash)
}
