// Package netlink manages the device's network link.
//
// On Wi-Fi hardware the Manager drives NetworkManager through nmcli for
// association and reads the kernel's operstate for the interface to report
// connectivity. Deployments with externally managed connectivity use the
// Static link, which is always up.
//
// The package deliberately contains no retry or timeout logic: the
// controller owns the bounded connect wait and the recovery policy, so a
// Link implementation only starts association and answers "is it up".
//
// Security Considerations:
//   - The Wi-Fi password is passed to nmcli on its command line but is
//     never included in error values or log output.
package netlink
