package main

import "github.com/MeKo-Tech/huepick/internal/cmd"

func main() {
	cmd.Execute()
}
