package config

import (
	"flag"
	"fmt"
)

const HelpMessage = `
  ride-saga runs one saga stage per process.

  Usage:
    saga -mode <stage>

  Stages:
    ride-intake           HTTP intake for new ride requests
    pricing               prices created rides
    driver-matching       assigns the nearest available driver
    payment-processor     charges the rider through the gateway
    payment-stream-relay  relays payment changes to the bus
    ride-completion       finalizes rides and releases drivers
`

func PrintHelp() {
	if HelpMessage != "" {
		fmt.Printf("%s", HelpMessage)
	} else {
		flag.Usage()
	}
}
