package main

import "github.com/Brian-Yee/montecarlo-sudoku/cmd"

func main() {
	cmd.Execute()
}
