package main

import "insightql/cmd"

func main() {
	cmd.Execute()
}
