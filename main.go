package main

import "github.com/devnazarchuk/depity-hr-sub000/cmd"

func main() {
	cmd.Execute()
}
