// Package pipreqs wraps the pipreqs dependency scanner used to regenerate
// the requirements manifest. The manifest file is always force-overwritten;
// scanner failures propagate to the caller untouched apart from error
// tagging.
package pipreqs
