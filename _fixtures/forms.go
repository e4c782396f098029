package main

import "fmt"

// Shown counts the calls to Show.
var Shown int

type MainWindow struct {
	Title string
}

func NewMainWindow() *MainWindow {
	return &MainWindow{Title: "MyForms"}
}

func (w *MainWindow) Show() {
	Shown++
	fmt.Println("showing", w.Title)
}

func MainWindowTitle() string {
	return NewMainWindow().Title
}

func main() {}
