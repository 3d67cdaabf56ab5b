// Command hvlink-cert provisions, inspects & deletes application
// certificates in a user-scoped (file based) certificate store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/uuid"

	"code.hvlink.org/golang/pkg/certstore"
	"code.hvlink.org/golang/pkg/certstore/boltdb"
)

const usageFmt = `
Command Usage: %s [Flags]
  Manage hvlink application certificates in a file based store.

Flags:
------
`

type Cmd struct {
	DBPath string
	AppId  uuid.UUID
	Create bool
	Force  bool
	Delete bool
}

func parseFlags(progname string, args []string) (*Cmd, error) {
	cmd := Cmd{}

	flags := flag.NewFlagSet(progname, flag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, usageFmt, path.Base(progname))
		flags.PrintDefaults()
	}

	flags.StringVar(&cmd.DBPath, "db", defaultDBPath(), `path of the certificate store database`)
	var rawAppId string
	flags.StringVar(&rawAppId, "app", "", `application id (uuid), required`)
	flags.BoolVar(&cmd.Create, "create", false, `create the certificate if the store has none`)
	flags.BoolVar(&cmd.Force, "force", false, `with -create, replace any stored certificate`)
	flags.BoolVar(&cmd.Delete, "delete", false, `delete the stored certificate & key container`)

	err := flags.Parse(args)
	if nil != err {
		return nil, err
	}

	if "" == rawAppId {
		flags.Usage()
		return nil, fmt.Errorf("missing -app flag")
	}
	cmd.AppId, err = uuid.Parse(rawAppId)
	if nil != err {
		return nil, fmt.Errorf("invalid -app flag: %w", err)
	}
	if cmd.Delete && cmd.Create {
		return nil, fmt.Errorf("-create and -delete are exclusive")
	}

	return &cmd, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if nil != err {
		return "hvlink-cert.db"
	}
	return path.Join(home, ".hvlink", "cert.db")
}

func run(ctx context.Context, cmd *Cmd) error {
	err := os.MkdirAll(path.Dir(cmd.DBPath), 0700)
	if nil != err {
		return fmt.Errorf("failed creating store directory: %w", err)
	}
	store, err := boltdb.New(cmd.DBPath)
	if nil != err {
		return err
	}
	defer store.Close()

	if cmd.Delete {
		removed, err := store.DeleteKeyContainer(ctx, cmd.AppId)
		if nil != err {
			return err
		}
		if !removed {
			fmt.Printf("no certificate stored for %s\n", cmd.AppId)
			return nil
		}
		fmt.Printf("deleted key container %s\n", certstore.MakeKeyContainerName(cmd.AppId))
		return nil
	}

	if cmd.Create {
		cert, err := certstore.EnsureCertificate(ctx, store, cmd.AppId, certstore.EnsureParams{
			AlwaysCreate: cmd.Force,
		})
		if nil != err {
			return err
		}
		defer cert.Close()
		fmt.Printf("subject:   %s\nnot after: %s\n", cert.Subject(), cert.NotAfter())
		return nil
	}

	rec, found, err := store.Load(ctx, cmd.AppId)
	if nil != err {
		return err
	}
	if !found {
		fmt.Printf("no certificate stored for %s\n", cmd.AppId)
		return nil
	}
	cert, err := rec.Certificate()
	if nil != err {
		return err
	}
	defer cert.Close()
	fmt.Printf(
		"subject:   %s\ncontainer: %s\nnot after: %s\n",
		cert.Subject(),
		cert.KeyContainerName(),
		cert.NotAfter(),
	)
	return nil
}

func main() {
	cmd, err := parseFlags(os.Args[0], os.Args[1:])
	if nil != err {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	err = run(context.Background(), cmd)
	if nil != err {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
