package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jrsteele09/go-efact-client/documents"
	"github.com/jrsteele09/go-efact-client/internal/app"
	"github.com/jrsteele09/go-efact-client/internal/config"
	"github.com/jrsteele09/go-efact-client/internal/utils"
	"github.com/jrsteele09/go-efact-client/oauthmodel"
	"github.com/jrsteele09/go-efact-client/sessions"
	"github.com/urfave/cli/v3"
)

func credentials(cmd *cli.Command) oauthmodel.Credentials {
	return oauthmodel.Credentials{
		Username: cmd.String("username"),
		Password: cmd.String("password"),
	}
}

// signIn builds the container and performs the password grant.
func signIn(ctx context.Context, c config.Config, creds oauthmodel.Credentials) (*app.Container, error) {
	container, err := app.New(ctx, c, app.Options{})
	if err != nil {
		return nil, err
	}
	if err := login(ctx, container, creds, os.Stderr); err != nil {
		return nil, err
	}
	return container, nil
}

// login shows a failed grant's message inline on out, the way the login form does. The
// error handler has already sent the failure to the notifier.
func login(ctx context.Context, container *app.Container, creds oauthmodel.Credentials, out io.Writer) error {
	if _, err := container.Sessions.Login(ctx, creds); err != nil {
		fmt.Fprintln(out, sessions.LoginErrorMessage(err))
		return err
	}
	container.Notifier.Success(sessions.MsgLoginSucceeded)
	return nil
}

func runLogin(ctx context.Context, c config.Config, creds oauthmodel.Credentials) error {
	container, err := signIn(ctx, c, creds)
	if err != nil {
		return err
	}
	user := container.Sessions.CurrentUser()
	if user == nil {
		return fmt.Errorf("[runLogin] token issued but carries no user")
	}
	fmt.Printf("Signed in as %s\n", user.Username)
	if len(user.Authorities) > 0 {
		fmt.Printf("Authorities: %s\n", strings.Join(user.Authorities, ", "))
	}
	return nil
}

func runFetch(ctx context.Context, c config.Config, creds oauthmodel.Credentials, ticket string, save bool) error {
	container, err := signIn(ctx, c, creds)
	if err != nil {
		return err
	}

	bundle, err := container.Retriever.Load(ctx, ticket)
	if err != nil {
		container.Notifier.Warning(fmt.Sprintf("No documents for ticket %q", ticket))
		return err
	}
	defer bundle.Release(container.Registry)

	fmt.Printf("Ticket %s\n", bundle.Ticket)
	for _, kind := range documents.Kinds {
		fmt.Printf("  %-4s %s\n", kind, describe(container, bundle, kind))
	}

	if !save {
		return nil
	}
	paths, err := bundle.Save(container.Retriever)
	for _, path := range paths {
		fmt.Printf("Saved %s\n", path)
	}
	return err
}

func describe(container *app.Container, bundle *documents.Bundle, kind documents.Kind) string {
	switch kind {
	case documents.KindPDF:
		if bundle.PDF == nil {
			return "unavailable"
		}
		blob, err := container.Registry.Open(*bundle.PDF)
		if err != nil {
			return "unavailable"
		}
		return fmt.Sprintf("%d bytes (%s)", len(blob.Data), blob.ContentType)
	case documents.KindXML:
		if bundle.XML == nil {
			return "unavailable"
		}
		return fmt.Sprintf("%d bytes", len(utils.Value(bundle.XML)))
	case documents.KindCDR:
		if bundle.CDR == nil {
			return "unavailable"
		}
		return fmt.Sprintf("%d bytes", len(utils.Value(bundle.CDR)))
	}
	return "unknown"
}
