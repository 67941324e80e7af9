package main

import (
	"flag"
	"log"

	"github.com/checkmarble/caregiver-uploads/cmd"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run the river queue migrations")
	shouldRunServer := flag.Bool("server", false, "Run the upload server")
	flag.Parse()

	compiledConfig := cmd.CompiledConfig{
		Version: Version,
	}

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(); err != nil {
			log.Fatal(err)
		}
	}

	if *shouldRunServer {
		if err := cmd.RunServer(compiledConfig); err != nil {
			log.Fatal(err)
		}
	}
}
