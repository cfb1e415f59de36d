package provider_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"smartchat/model"
	"smartchat/provider"
)

// ExampleNewProvider demonstrates creating the offline provider using the factory.
func ExampleNewProvider() {
	cfg := provider.Config{
		Type: provider.ProviderTypeOffline,
	}

	p, err := provider.NewProvider(cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Provider created: %T\n", p)
	// Output: Provider created: *provider.OfflineProvider
}

// ExampleParseProviderType shows the accepted provider names.
func ExampleParseProviderType() {
	for _, id := range []string{"gemini", "Google", "offline"} {
		typ, err := provider.ParseProviderType(id)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(id, "->", typ)
	}
	// Output:
	// gemini -> gemini
	// Google -> gemini
	// offline -> offline
}

// ExampleOfflineProvider_Generate streams an answer chunk by chunk.
func ExampleOfflineProvider_Generate() {
	p := provider.NewOfflineProvider(0)

	prompt := "Data info: CSV data has columns: region, total.\nUser question: 'bar chart of total by region'"
	var sb strings.Builder
	err := p.Generate(context.Background(), model.Request{Prompt: prompt}, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(sb.String())
	// Output: {"plot":{"type":"bar","x_column":"region","y_column":"total"}}
}
