package main

import (
	"fmt"

	"github.com/fwojciec/webclip"
)

// Run executes the login command.
func (c *LoginCmd) Run(deps *Dependencies) error {
	values := []struct {
		account string
		value   string
	}{
		{webclip.AccountStoreToken, c.StoreToken},
		{webclip.AccountSpaceID, c.SpaceID},
		{webclip.AccountAIKey, c.AIKey},
	}

	stored := 0
	for _, v := range values {
		if v.value == "" {
			continue
		}
		if err := deps.Credentials.Put(deps.Ctx, webclip.CredentialService, v.account, v.value); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Stored %s\n", v.account)
		stored++
	}

	if stored == 0 {
		err := webclip.Errorf(webclip.EINVALID, "nothing to store. Pass --store-token, --space-id or --ai-key")
		fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
		return err
	}
	return nil
}

// Run executes the logout command.
func (c *LogoutCmd) Run(deps *Dependencies) error {
	for _, account := range []string{webclip.AccountStoreToken, webclip.AccountSpaceID, webclip.AccountAIKey} {
		err := deps.Credentials.Delete(deps.Ctx, webclip.CredentialService, account)
		if err != nil && webclip.ErrorCode(err) != webclip.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s\n", webclip.ErrorMessage(err))
			return err
		}
	}
	fmt.Fprintln(deps.Stdout, "Removed stored credentials")
	return nil
}
