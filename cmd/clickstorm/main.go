// clickstorm fires a burst of concurrent Confirm clicks for one order at a
// running relay and checks that exactly one of them wins.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mklnz/offer-relay/internal/core/domain"
	"github.com/mklnz/offer-relay/internal/core/token"
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "relay base URL")
		orderID = flag.String("order", "ord-storm", "order id to storm")
		clicks  = flag.Int("clicks", 25, "number of concurrent confirm clicks")
		price   = flag.Float64("price", 90.00, "decided price carried by each token")
	)
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	var resolved, lost, failed atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *clicks; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			sellerID := fmt.Sprintf("storm-s%d", n)
			body, _ := json.Marshal(map[string]string{
				"token":     token.Encode(domain.ClickConfirm, *orderID, sellerID, "unit-"+sellerID, *price),
				"channelId": "storm-ch",
				"messageId": fmt.Sprintf("storm-msg-%d", n),
			})

			resp, err := client.Post(*baseURL+"/api/events/click", "application/json", bytes.NewReader(body))
			if err != nil {
				failed.Add(1)
				return
			}
			defer resp.Body.Close()

			var out struct {
				OK     bool   `json:"ok"`
				Result string `json:"result"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || !out.OK {
				failed.Add(1)
				return
			}
			switch out.Result {
			case "resolved":
				resolved.Add(1)
			default:
				lost.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Println("========== CLICK STORM RESULTS ==========")
	fmt.Printf("Order:       %s\n", *orderID)
	fmt.Printf("Clicks:      %d\n", *clicks)
	fmt.Printf("Resolved:    %d\n", resolved.Load())
	fmt.Printf("Lost race:   %d\n", lost.Load())
	fmt.Printf("Failed:      %d\n", failed.Load())
	fmt.Printf("Duration:    %v\n", elapsed)
	fmt.Println("=========================================")

	if resolved.Load() != 1 {
		log.Fatalf("FAIL: expected exactly 1 winning click, got %d", resolved.Load())
	}
	fmt.Println("PASS: exactly one click won the order")
}
