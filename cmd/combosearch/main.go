package main

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/clarktrimble/sabot"

	"combosearch"
	"combosearch/store/duck"
	"combosearch/util"
)

const (
	defaultLayout = "layout.yaml"
	fileMode      = 0644
)

func main() {

	path := defaultLayout
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	wrote, err := util.SampleConfig(combosearch.SampleLayout(), path, fileMode)
	check(err)
	if wrote {
		fmt.Printf("wrote sample layout to %s, edit and rerun\n", path)
		return
	}

	layout, err := combosearch.LoadLayout(path)
	check(err)

	logFile := util.OpenLog(layout.LogFile, fileMode)
	defer util.CloseLog(logFile)

	ctx := context.Background()
	lgr := &sabot.Sabot{Writer: logFile}

	dk, err := duck.New(ctx, lgr)
	check(err)
	defer dk.Close()

	err = dk.Load(layout.Source)
	check(err)

	model, err := combosearch.NewModel(ctx, dk, layout, lgr)
	check(err)

	_, err = tea.NewProgram(model).Run()
	if err != nil {
		lgr.Error(ctx, "program failed", err)
	}
	check(err)
}

func check(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}
