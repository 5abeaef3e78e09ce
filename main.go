// Package main provides the entry point for the PDF Annotator application.
package main

import (
	"log"
	"os"

	"pdf-annotator/internal/editor"
	"pdf-annotator/internal/export"
	"pdf-annotator/internal/pdfrender"
	"pdf-annotator/internal/version"
	"pdf-annotator/ui/mainwindow"
	"pdf-annotator/ui/prefs"

	"fyne.io/fyne/v2/app"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting PDF Annotator v%s", version.Version)

	fyneApp := app.NewWithID("pdf-annotator")

	renderer := pdfrender.NewService()
	session := editor.NewSession(renderer, export.NewEngine())
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, session, renderer, appPrefs)

	// Open a document passed on the command line.
	if len(os.Args) > 1 {
		win.OpenFile(os.Args[1])
	}

	win.ShowAndRun()
}
