// Where: internal/domain/console/consistency.go
// What: Compare package-time console state with the deploy-time context.
// Why: A package must not be deployed under a different org or integration setting.
package console

// Current is the deploy-time view compared against PersistedState.
// OrgID is empty when the integration is disabled and no org was resolved.
type Current struct {
	Enabled bool
	OrgID   string
	Service string
}

// ValidatePackageIdentity runs the checks that need no org lookup: the schema
// version and, for an activated package, the service it was built for.
func ValidatePackageIdentity(state PersistedState, service string) error {
	if state.SchemaVersion != SchemaVersion {
		return NewError(KindIntegrationMismatch,
			"package was built with console state schema %q, this version expects %q; rebuild the package",
			state.SchemaVersion, SchemaVersion)
	}
	if state.Activation && state.ServiceID != "" && service != "" && state.ServiceID != service {
		return NewError(KindIntegrationMismatch,
			"package was built for service %q but the current service is %q; rebuild the package",
			state.ServiceID, service)
	}
	return nil
}

// ValidatePersisted runs the schema, service, org and activation checks in that order.
// The org is only compared for a package built with the integration on; a disabled
// package carries no org. The first mismatch is returned; nil means the package may
// be deployed.
func ValidatePersisted(state PersistedState, current Current) error {
	if err := ValidatePackageIdentity(state, current.Service); err != nil {
		return err
	}
	if state.Activation && current.OrgID != "" && state.OrgID != current.OrgID {
		return NewError(KindOrgMismatch,
			"package was built for org %q but the current org is %q; rebuild the package",
			state.OrgID, current.OrgID)
	}
	if state.Activation != current.Enabled {
		return NewError(KindActivationMismatch,
			"package was built with console integration %s but deploy runs with it %s; rebuild the package",
			onOff(state.Activation), onOff(current.Enabled))
	}
	return nil
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}
