package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"

	_ "github.com/denysvitali/swapctl/cmd/assist"
	_ "github.com/denysvitali/swapctl/cmd/dock"
	_ "github.com/denysvitali/swapctl/cmd/pillars"
	"github.com/denysvitali/swapctl/cmd/root"
	_ "github.com/denysvitali/swapctl/cmd/slots"
	_ "github.com/denysvitali/swapctl/cmd/undock"
	_ "github.com/denysvitali/swapctl/cmd/version"
	_ "github.com/denysvitali/swapctl/cmd/warehouse"
	_ "github.com/denysvitali/swapctl/cmd/watch"
)

func main() {
	if err := root.RootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
