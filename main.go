package main

import "github.com/Tayyab-RIT/Campus-Connect-Backend/cmd"

func main() {
	cmd.Execute()
}
