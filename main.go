package main

import "github.com/fjellvarden/peakview/cmd"

func main() {
	cmd.Execute()
}
