package statemachine_test

import (
	"fmt"

	"github.com/dmitrymomot/gamekit/pkg/statemachine"
)

func ExampleGraph_TransitionTo() {
	type Phase string
	const (
		Lobby     Phase = "lobby"
		Countdown Phase = "countdown"
		Playing   Phase = "playing"
	)

	g := statemachine.NewBuilder[Phase]().
		From(Lobby).To(Countdown).
		From(Countdown).To(Playing, Lobby).
		MustBuild()

	reg := g.Registry()
	_, _ = reg.SubscribeToAllTransitions("log", func(from, to Phase) {
		fmt.Printf("all: %s -> %s\n", from, to)
	})
	_, _ = reg.SubscribeToTransition("hud", Lobby, Countdown, func() {
		fmt.Println("pair: start countdown")
	})
	_, _ = reg.SubscribeToStateExited("music", Lobby, func() {
		fmt.Println("exit: stop lobby music")
	})
	_, _ = reg.SubscribeToStateEntered("hud", Countdown, func() {
		fmt.Println("enter: show timer")
	})

	current := Lobby
	current, _ = g.TransitionTo(current, Countdown)

	_, err := g.TransitionTo(current, Countdown)
	fmt.Println(err)
	fmt.Println(current)

	// Output:
	// all: lobby -> countdown
	// pair: start countdown
	// exit: stop lobby music
	// enter: show timer
	// invalid transition from state 'countdown' to state 'countdown'
	// countdown
}

func ExampleDefinition_Build() {
	d := &statemachine.Definition[string]{
		Name:    "door",
		Initial: "closed",
		Transitions: []statemachine.EdgeSet[string]{
			{From: "closed", To: []string{"open"}},
			{From: "open", To: []string{"closed"}},
		},
	}

	g, err := d.Build()
	if err != nil {
		panic(err)
	}
	fmt.Print(statemachine.Mermaid(g))

	// Output:
	// stateDiagram-v2
	//   direction LR
	//   closed --> open
	//   open --> closed
}
