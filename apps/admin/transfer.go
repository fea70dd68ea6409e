package main

import (
	"fmt"

	"github.com/epistula/epistula-go/datatransfer"
)

func (cli *commandLine) runExport(args []string) error {
	exportCmd := newFlagSet("export")
	out := exportCmd.String("o", "", "Output file for the snapshot.")
	schema := exportCmd.String("schema", string(datatransfer.SchemaProduction), "Schema to export: temp or production.")
	if err := exportCmd.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		exportCmd.Usage()
		return errHelp
	}

	ctx, cancel := cli.ctx()
	defer cancel()
	env, err := cli.transfer.Export(ctx, datatransfer.Schema(*schema))
	if err != nil {
		return err
	}
	if err := datatransfer.WriteFile(*out, env); err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "exported %s snapshot %s to %s\n", env.Schema, env.ID, *out)
	return nil
}

func (cli *commandLine) runImport(args []string) error {
	importCmd := newFlagSet("import")
	file := importCmd.String("f", "", "Snapshot file to import.")
	schema := importCmd.String("schema", string(datatransfer.SchemaTemp), "Target schema: temp or production.")
	strategy := importCmd.String("strategy", string(datatransfer.StrategySkip), "Default row strategy: skip, overwrite or merge.")
	dryRun := importCmd.Bool("dry-run", false, "Validate and show the diff without uploading.")
	if err := importCmd.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		importCmd.Usage()
		return errHelp
	}

	env, err := datatransfer.ReadFile(*file)
	if err != nil {
		return err
	}

	ctx, cancel := cli.ctx()
	defer cancel()

	if *dryRun {
		if err := datatransfer.Validate(&env.Snapshot); err != nil {
			return err
		}
		diff, err := cli.transfer.Preview(ctx, env)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Fprintln(cli.stdout, "snapshot matches production; nothing to import")
		} else {
			fmt.Fprint(cli.stdout, diff)
		}
		return nil
	}

	// remembered per-row strategies from previous wizard runs
	strategies := make(map[string]datatransfer.Strategy)
	for _, uni := range env.Snapshot.Universities {
		row := "university:" + uni.Name
		if strat, ok := cli.prefs.Strategy(row); ok {
			strategies[row] = datatransfer.Strategy(strat)
		}
	}
	for _, usr := range env.Snapshot.Users {
		row := "user:" + usr.Email
		if strat, ok := cli.prefs.Strategy(row); ok {
			strategies[row] = datatransfer.Strategy(strat)
		}
	}

	report, err := cli.transfer.Import(ctx, env, datatransfer.Schema(*schema), datatransfer.Strategy(*strategy), strategies)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "import done: %d created, %d updated, %d skipped, %d failed\n",
		report.Created, report.Updated, report.Skipped, report.Failed)
	for _, rowErr := range report.Errors {
		fmt.Fprintf(cli.stdout, "  %s: %s\n", rowErr.Row, rowErr.Detail)
	}
	return nil
}

func (cli *commandLine) runBackup(args []string) error {
	backupCmd := newFlagSet("backup")
	dir := backupCmd.String("dir", "", "Directory to write the backup into.")
	if err := backupCmd.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		backupCmd.Usage()
		return errHelp
	}

	ctx, cancel := cli.ctx()
	defer cancel()
	path, err := cli.transfer.Backup(ctx, *dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.stdout, "backup written to %s\n", path)
	return nil
}
