//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "flower-shop-api"
	ConsumerName = "flower-storefront"

	// The API is itself a consumer of the recommendation service.
	MLProviderName = "flower-ml"
	MLConsumerName = ProviderName

	StateProductsBaseline = "products baseline"
	StateProductExists    = "product pact-rose exists"
	StateProductMissing   = "no product with id ghost-product"

	StateMLPopular = "popular products are ranked"
	StateMLChatbot = "chatbot is available"
)

const (
	ExistingProductID = "pact-rose"
	MissingProductID  = "ghost-product"

	ExampleProductName  = "Pact Red Rose"
	ExampleProductPrice = int64(150000)
	ExampleImageURL     = "https://example.pact/products/rose.jpg"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the storefront view of the seeded product.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"_id":         ExistingProductID,
		"nameProduct": ExampleProductName,
		"price":       ExampleProductPrice,
		"images":      []map[string]string{{"url": ExampleImageURL}},
		"status":      "active",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
