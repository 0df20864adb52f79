package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/splittally/tally-backend/infra/cloudrun"
	"github.com/splittally/tally-backend/infra/docker"
	"github.com/splittally/tally-backend/infra/firestore"
	"github.com/splittally/tally-backend/infra/provider"
	"github.com/splittally/tally-backend/infra/secret"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		// set default provider with the correct project
		prov, err := provider.SetupDefaultProvider(ctx)
		if err != nil {
			return err
		}

		// enable firestore and create a database for the project
		if err := firestore.SetupFirestore(ctx, prov); err != nil {
			return err
		}

		// enable secret manager before cloudrun stores the bot credentials
		if _, err := secret.SetupSecretManager(ctx, prov); err != nil {
			return err
		}

		// create docker repo
		repo, err := docker.CreateCloudrunRepo(ctx)
		if err != nil {
			return err
		}

		_, err = cloudrun.SetupCloudRun(ctx, prov, repo)
		return err
	})
}
