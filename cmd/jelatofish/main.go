package main

import "github.com/amane-katagiri/jelatofish/internal/cmd"

func main() {
	cmd.Execute()
}
