package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func (cli *commandLine) runFavorites(args []string) error {
	favCmd := newFlagSet("favorites")
	toggle := favCmd.String("toggle", "", "Toggle a favorite, eg. subject:42 or university:3.")
	if err := favCmd.Parse(args); err != nil {
		return err
	}

	if *toggle != "" {
		kind, id, err := parseFavorite(*toggle)
		if err != nil {
			return err
		}
		on, err := cli.prefs.ToggleFavorite(kind, id)
		if err != nil {
			return err
		}
		if on {
			fmt.Fprintf(cli.stdout, "added %s:%d to favorites\n", kind, id)
		} else {
			fmt.Fprintf(cli.stdout, "removed %s:%d from favorites\n", kind, id)
		}
		return nil
	}

	favs := cli.prefs.Favorites()
	if len(favs) == 0 {
		fmt.Fprintln(cli.stdout, "no favorites")
		return nil
	}
	for _, fav := range favs {
		fmt.Fprintln(cli.stdout, fav)
	}
	return nil
}

func parseFavorite(s string) (kind string, id int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) < 2 {
		return "", 0, errors.Errorf("invalid favorite %q: want KIND:ID", s)
	}
	id, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, errors.Errorf("invalid favorite id %q: want an integer", parts[1])
	}
	return parts[0], id, nil
}
