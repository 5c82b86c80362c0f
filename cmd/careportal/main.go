// Command careportal は患者ポータルのAPIサーバー、ワーカー、マイグレーションを起動する。
//
//	careportal [serve|worker|migrate|healthcheck]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/careportal/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "careportal: %v\n", err)
		os.Exit(1)
	}
}
