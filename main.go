package main

import (
	"os"

	"github.com/FHIR-Aggregator/bulkimport/internal/app"
)

func main() {
	os.Exit(app.New().Run())
}
