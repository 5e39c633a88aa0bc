// The rag-server binary answers questions over ingested PDF documents.
package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/chethannhub/RAG-PDF-APP/cmd/rag-server/app"
)

func main() {
	app.NewApp().Run()
}
