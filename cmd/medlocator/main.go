package main

import (
	"MedLocator/internal/bootstrap"
	pkg "MedLocator/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
