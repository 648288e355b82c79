package main

import "github.com/aliskhannn/learning-progress-tracker/cmd"

func main() {
	cmd.Execute()
}
