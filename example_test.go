package agentkit_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/pkg/agent"
	"github.com/aretw0/agentkit/pkg/catalog"
)

// ExampleNew dispatches a funding-rate lookup against a stand-in exchange.
func ExampleNew() {
	exchange := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"symbol":"SOL_USDC_PERP","fundingRate":"0.0001"}]`)
	}))
	defer exchange.Close()

	kit, err := agentkit.New(agent.Config{
		Backpack: agent.ServiceConfig{BaseURL: exchange.URL},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer kit.Close()

	reply := kit.Dispatch(context.Background(), "GET_FUNDING_RATE", `{"symbol": "SOL-PERP"}`)
	fmt.Println(reply.Text)

	reply = kit.Dispatch(context.Background(), "GET_FUNDING_RATE", nil)
	fmt.Println(reply.Text)

	reply = kit.Dispatch(context.Background(), "LAUNCH_ROCKET", nil)
	fmt.Println(reply.Text)

	// Output:
	// {
	//   "funding_rate": {
	//     "fundingRate": "0.0001",
	//     "symbol": "SOL_USDC_PERP"
	//   },
	//   "message": "Success"
	// }
	// {
	//   "funding_rate": null,
	//   "message": "Error fetching funding rate: Missing required field: symbol"
	// }
	// Unknown action: LAUNCH_ROCKET
}

// ExampleWithHTTPActions declares an extra action backed by a plain HTTP endpoint.
func ExampleWithHTTPActions() {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"greeting":"gm %s"}`, r.URL.Query().Get("name"))
	}))
	defer api.Close()

	kit, err := agentkit.New(agent.Config{},
		agentkit.WithActions("GM"),
		agentkit.WithHTTPActions(catalog.HTTPAction{
			Name:   "GM",
			URL:    api.URL + "/gm",
			Result: "reply",
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(kit.Registry().Names())
	fmt.Println(kit.Dispatch(context.Background(), "GM", "name=anon").Text)

	// Output:
	// [GM]
	// {
	//   "reply": {
	//     "greeting": "gm anon"
	//   },
	//   "message": "Success"
	// }
}
