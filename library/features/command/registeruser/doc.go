// Package registeruser implements the Register User use case, run by admins to make a user known
// to the circulation engine under a given role.
package registeruser
