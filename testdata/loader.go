package testdata

import (
	"os"
	"path/filepath"
	"testing"
)

// LoadExampleRequest reads the example render request from exampleRequest.json
func LoadExampleRequest(t *testing.T) []byte {
	return loadFixture(t, "exampleRequest.json")
}

// LoadExampleTopology reads the bare two-district topology from exampleTopology.json
func LoadExampleTopology(t *testing.T) []byte {
	return loadFixture(t, "exampleTopology.json")
}

// LoadExampleAnalyseRequest reads the example analyse request from exampleAnalyseRequest.json
func LoadExampleAnalyseRequest(t *testing.T) []byte {
	return loadFixture(t, "exampleAnalyseRequest.json")
}

func loadFixture(t *testing.T, name string) []byte {
	b, err := os.ReadFile(filepath.Join("..", "testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return b
}
