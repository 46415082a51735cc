package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/baxromumarov/safevec"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

func main() {
	a := safevec.New[int]()
	for i := 0; i < 64; i++ {
		a.Push(i)
	}

	fmt.Printf("processing %d elements across 8 windows\n\n", a.Len())

	start := time.Now()
	err := safevec.Transform(context.Background(), a, 8,
		func(ctx context.Context, w *safevec.Window[int]) error {
			time.Sleep(time.Duration(rand.IntN(120)) * time.Millisecond)
			for i := 0; i < w.Len(); i++ {
				v, err := w.Get(i)
				if err != nil {
					return err
				}
				if err := w.Set(i, v*v); err != nil {
					return err
				}
			}
			if w.Range().Start == 24 {
				return errors.New("window refused to cooperate")
			}
			return nil
		},
		safevec.WithWorkerLimit(4),
		safevec.WithOnStart(func(info safevec.AssignmentInfo) {
			fmt.Printf("%s %s %s\n", yellow("start"), info.Name, info.Range)
		}),
		safevec.WithOnDone(func(info safevec.AssignmentInfo, err error, d time.Duration) {
			if err != nil {
				fmt.Printf("%s %s %s after %v: %v\n", red("fail "), info.Name, info.Range, d.Round(time.Millisecond), err)
				return
			}
			fmt.Printf("%s %s %s in %v\n", green("done "), info.Name, info.Range, d.Round(time.Millisecond))
		}),
	)

	fmt.Printf("\nfinished in %v\n", time.Since(start).Round(time.Millisecond))
	for _, te := range safevec.AllTaskErrors(err) {
		fmt.Println(red("error:"), te)
	}

	// The failed window still wrote its squares: a reported error does
	// not roll its writes back.
	v, _ := a.Get(25)
	fmt.Println("element 25 =", v)

	st := a.Stats()
	fmt.Printf("stats: len=%d cap=%d gen=%d pushes=%d grows=%d scopes=%d\n",
		st.Len, st.Cap, st.Generation, st.Pushes, st.Grows, st.Scopes)
}
