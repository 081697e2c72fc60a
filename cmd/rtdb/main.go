// Command rtdb runs one operation against an in-memory tree database seeded
// from data files and prints the result.
//
//	rtdb --seed data.json get users/ada
//	rtdb --seed data.json --out result.json set users/ada/age 37
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
