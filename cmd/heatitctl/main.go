package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/heatit-community/wifi6bridge/pkg/heatit"
)

var host = flag.String("host", "", "thermostat base url, e.g. http://192.168.1.40")
var insecure = flag.Bool("insecure", false, "skip TLS certificate verification")
var set = flag.String("set", "", "parameter to write, e.g. heatingSetpoint")
var value = flag.String("value", "", "value to write")
var reset = flag.String("reset", "", "reset type: factory, settings or kwh")

func main() {
	flag.Parse()
	if *host == "" {
		log.Fatal("-host is required")
	}

	ctx := context.Background()
	client := heatit.New(*host, *insecure)

	if *set != "" {
		if !client.SetParameter(ctx, *set, parseValue(*value)) {
			log.Fatalf("writing %s=%s failed", *set, *value)
		}
		return
	}

	if *reset != "" {
		err := client.Reset(ctx, heatit.ResetType(*reset))
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	status := client.Status(ctx)
	if status == nil {
		log.Fatal("no response from device")
	}
	b, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(b))
}

// parseValue keeps numbers numeric so the firmware does not reject the
// write, everything else goes through as a string.
func parseValue(s string) any {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
