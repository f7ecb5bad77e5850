package main

import "piccomarr/cmd"

func main() {
	cmd.Execute()
}
