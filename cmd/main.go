package main

import (
	"log"
	"os"
)

const appName = "Countdown"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Printf("%s: %v", appName, err)
		os.Exit(1)
	}
}
