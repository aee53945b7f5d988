package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go-inventory-ledger/internal/service"
)

// Prints a bcrypt hash for ADMIN_PASSWORD_HASH. The password is read from the
// first argument, or from stdin when no argument is given.
func main() {
	password := ""
	if len(os.Args) > 1 {
		password = os.Args[1]
	} else {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		password = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "usage: hash-password <password>")
		os.Exit(1)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to hash password:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
