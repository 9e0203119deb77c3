package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Eursukkul/club-cms/internal/models"
	"github.com/Eursukkul/club-cms/pkg/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Watch handles the watch subcommand: it follows the change notifications
// the server publishes and prints one line per change.
func Watch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	url := fs.String("url", os.Getenv("RABBITMQ_URL"), "RabbitMQ URL (default: $RABBITMQ_URL)")
	queue := fs.String("queue", "", "Durable queue name; empty uses a private queue")
	kind := fs.String("kind", "", "Only follow events or workshops")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: club-cms watch [OPTIONS]\n\n")
		fmt.Fprintf(os.Stderr, "Prints create, update and delete notifications as they happen.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if *url == "" {
		fmt.Fprintf(os.Stderr, "Error: RABBITMQ_URL is not set\n")
		return 2
	}

	patterns := []string{"#"}
	if *kind != "" {
		k, ok := models.KindByName(*kind)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown collection %q\n", *kind)
			return 2
		}
		patterns = []string{k.Singular + ".*"}
	}

	consumer, err := rabbitmq.NewConsumer(*url, *queue, patterns...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer consumer.Close()

	msgs, err := consumer.Consume()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return 0
		case msg, ok := <-msgs:
			if !ok {
				slog.Warn("notification channel closed")
				return 1
			}
			handleChange(os.Stdout, msg)
		}
	}
}

// change is the part of a published record the feed prints.
type change struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Status models.Status `json:"status"`
}

// handleChange prints one notification. Undecodable messages are dropped
// rather than requeued so they cannot wedge the queue.
func handleChange(w io.Writer, msg amqp.Delivery) {
	var c change
	if err := json.Unmarshal(msg.Body, &c); err != nil {
		slog.Warn("drop malformed notification", "routing_key", msg.RoutingKey, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	at := msg.Timestamp
	if at.IsZero() {
		at = time.Now()
	}
	singular, action, _ := strings.Cut(msg.RoutingKey, ".")
	fmt.Fprintf(w, "%s %s %s %q (%s)\n", at.Local().Format("15:04:05"), singular, action, c.Title, c.ID)
	if action != "deleted" && c.Status != "" {
		fmt.Fprintf(w, "  status: %s\n", c.Status)
	}
	_ = msg.Ack(false)
}
