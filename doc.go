/*
Package agentkit is a schema-validated action dispatcher over blockchain and oracle services.

Every action (GET_BALANCE, TRANSFER, PYTH_FETCH_PRICE, ...) declares an input schema and a fixed result shape. A tool-calling host sends a named request; the dispatcher validates the arguments, calls the upstream service and answers with an envelope: the declared result fields plus a message. Failures never escape as exceptions. They come back as envelopes with a null result and the error text.

# Architecture

  - pkg/schema: field schemas, validation and JSON Schema documents.
  - pkg/tool: the adapter that turns a typed function into an envelope-returning handler.
  - pkg/catalog: the built-in actions and config-declared HTTP actions.
  - pkg/dispatch: routing, policy interceptors, the signer lock, journal and metrics.
  - pkg/adapters: MCP, HTTP and JSON-lines transports plus memory and Redis backends.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/agentkit"
		"github.com/aretw0/agentkit/pkg/agent"
	)

	func main() {
		kit, err := agentkit.New(agent.Config{})
		if err != nil {
			log.Fatal(err)
		}
		defer kit.Close()

		reply := kit.Dispatch(context.Background(), "PYTH_FETCH_PRICE", map[string]any{
			"price_feed_id": "0xef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d",
		})
		fmt.Println(reply.Text)
	}
*/
package agentkit
