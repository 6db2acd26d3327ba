package models

// Parcel is a booked packet as reported by the courier, passed through untouched.
type Parcel map[string]interface{}
