// Command bookingctl is the operator CLI for the booking services.
package main

import "os"

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
