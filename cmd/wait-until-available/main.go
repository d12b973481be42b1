package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/healthz -timeout=2m
func main() {
	urlPtr := flag.String("url", "http://localhost:8080/healthz", "the health endpoint to poll")
	timeoutPtr := flag.Duration("timeout", 0, "give up after this duration, 0 waits forever")
	flag.Parse()

	totalWaitTime := 0
	started := time.Now()
	for {
		res, err := http.Get(*urlPtr)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if *timeoutPtr > 0 && time.Since(started) > *timeoutPtr {
			panic(fmt.Sprintf("service not available after %s", *timeoutPtr))
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
