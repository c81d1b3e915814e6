package main

import "StockVault/internal/cli"

func main() {
	cli.Execute()
}
