package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/keybackup/internal/client/cli"
)

func main() {

	serverURL := flag.String("s", "http://localhost:8080", "server base URL")
	email := flag.String("e", "", "account email")
	flag.Parse()

	app := cli.NewApp(*serverURL, *email)

	if err := app.Run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
