package main

import (
	"fmt"
	"syscall"
	"time"

	"golang.org/x/term"
)

var readPasswordFunc = term.ReadPassword // mockable

func (cli *commandLine) runLogin(args []string) error {
	loginCmd := newFlagSet("login")
	uname := loginCmd.String("username", "", "The user's username or email. The password will be prompted next.")
	if err := loginCmd.Parse(args); err != nil {
		return err
	}
	if *uname == "" {
		loginCmd.Usage()
		return errHelp
	}

	fmt.Fprint(cli.stdout, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.stdout)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		loginCmd.Usage()
		return errHelp
	}

	ctx, cancel := cli.ctx()
	defer cancel()
	if _, err := cli.client.Login(ctx, *uname, string(pwd)); err != nil {
		return err
	}

	claims, err := cli.client.Claims()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "logged in as %s\n", claims.Username)
	return nil
}

func (cli *commandLine) whoAmI() error {
	claims, err := cli.client.Claims()
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "username: %s\n", claims.Username)
	fmt.Fprintf(cli.stdout, "user id:  %d\n", claims.UserID())
	fmt.Fprintf(cli.stdout, "roles:    %v\n", claims.Roles)
	if claims.ExpiresAt > 0 {
		exp := time.Unix(claims.ExpiresAt, 0)
		if claims.Expired() {
			fmt.Fprintf(cli.stdout, "token:    EXPIRED since %s\n", exp.Format(time.RFC3339))
		} else {
			fmt.Fprintf(cli.stdout, "token:    valid until %s\n", exp.Format(time.RFC3339))
		}
	}
	return nil
}
