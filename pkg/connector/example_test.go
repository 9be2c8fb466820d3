// Package connector provides examples of using the connector framework.
package connector_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/ajitpratap0/tributary/pkg/config"
	"github.com/ajitpratap0/tributary/pkg/connector/registry"

	// Import connectors to register them
	_ "github.com/ajitpratap0/tributary/pkg/connector/sources/github"
)

// Example demonstrates creating and using a connector via the registry.
func Example() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "hello-world", "full_name": "octocat/hello-world",
			 "html_url": "https://github.com/octocat/hello-world"}
		]`))
	}))
	defer server.Close()

	cfg := config.NewConnectorConfig(server.URL)

	conn, err := registry.Create("github", cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	records, err := conn.Extract(context.Background(), map[string]string{
		"username": "octocat",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, record := range records {
		fmt.Println(record["name"])
	}
	// Output: hello-world
}
