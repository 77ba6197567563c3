package tripchat

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type cliArgs struct {
	Server       string `help:"Family Navigator server URL." default:"http://localhost:8080" env:"TRIPCHAT_SERVER"`
	Email        string `help:"Account email." required:"" env:"TRIPCHAT_EMAIL"`
	Password     string `help:"Account password." required:"" env:"TRIPCHAT_PASSWORD"`
	Conversation string `help:"Conversation ID to store the exchange in." optional:""`
	Verbose      bool   `short:"v" help:"Log debug output."`
}

// CliConfig wires the CLI to its environment.
type CliConfig struct {
	Name        string
	Description string
	Exit        func(int)
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

func NewCliConfig() *CliConfig {
	return &CliConfig{
		Name:        "tripchat",
		Description: "Chat with the trip guide from a terminal.",
		Exit:        os.Exit,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
	}
}

// Cli parses args, signs in and runs an interactive session.
func Cli(ctx context.Context, args []string, config *CliConfig) error {
	var cli cliArgs
	parser, err := kong.New(&cli,
		kong.Name(config.Name),
		kong.Description(config.Description),
		kong.Exit(config.Exit),
		kong.Writers(config.Stdout, config.Stderr),
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	session := &Session{}
	if cli.Conversation != "" {
		id, err := uuid.Parse(cli.Conversation)
		if err != nil {
			return err
		}
		session.ConversationID = id
	}

	client := NewClient(cli.Server, nil)
	if err := client.Login(ctx, cli.Email, cli.Password); err != nil {
		return err
	}
	session.Client = client
	return session.Run(ctx, config.Stdin, config.Stdout)
}
