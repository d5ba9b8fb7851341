package main

import "github.com/bishalpaudel/EEG-muse/cmd"

func main() {
	cmd.Execute()
}
