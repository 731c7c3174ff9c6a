package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"message-relay/domain"
	"message-relay/infrastructure/storage"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

func main() {
	dbPath := flag.String("db", "./data/messages", "Path to badger DB")
	limit := flag.Int("limit", 100, "Maximum number of messages, 0 for all")
	user := flag.String("user", "", "Only show messages of this username")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		// Allows reading while the relay holds the lock
		WithBypassLockGuard(true))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	store := storage.NewBadgerStore(db, domain.Database, slog.Default())
	messages, _, err := store.Find(domain.Collection, nil, *limit)
	if err != nil {
		log.Fatal(err)
	}
	if *user != "" {
		messages = lo.Filter(messages, func(m domain.Message, _ int) bool { return m.Username == *user })
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Date", "Username", "Message"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, m := range messages {
		table.Append([]string{
			m.ID.String()[:8],
			m.Date,
			m.Username,
			strings.ReplaceAll(m.Body, "\n", " "),
		})
	}
	table.Render()
	fmt.Printf("%d message(s)\n", len(messages))
}
