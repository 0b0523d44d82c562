// Command petsay sends a message to the relay for the overlay to show.
//
//	petsay hello there
//	echo "long text" | petsay -stream
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/msgserver"
)

var (
	flagAppend = flag.Bool("append", false, "Append to the current message instead of replacing it")
	flagStream = flag.Duration("stream", 0, "Send one character at a time with this delay")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
			os.Exit(1)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	timeout := cfg.Poller.Timeout
	if *flagStream > 0 {
		timeout += time.Duration(utf8.RuneCountInString(text)) * (*flagStream + 100*time.Millisecond)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := &msgserver.Client{Endpoint: cfg.Poller.Endpoint}
	if *flagStream > 0 {
		err = client.Stream(ctx, text, *flagStream)
	} else {
		err = client.Send(ctx, text, !*flagAppend)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Send error: %v\n", err)
		os.Exit(1)
	}
}
