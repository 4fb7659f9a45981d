// Package dnscheck decides whether a domain exists before any page is fetched.
//
// A Checker runs four lookups in order: A, AAAA, CNAME and ANY. The first
// lookup that returns at least one record proves the domain exists and the
// rest are skipped. Lookups that fail with an expected "no such record"
// answer (no data, NXDOMAIN, SERVFAIL, REFUSED) are logged at debug level;
// other failures such as timeouts are logged as warnings. In both cases the
// next lookup is tried. Only when all four come back empty does Check return
// ErrNotFound.
//
// A, AAAA and CNAME go through a net.Resolver. The ANY query is sent with
// github.com/miekg/dns because the standard resolver cannot issue it.
package dnscheck
