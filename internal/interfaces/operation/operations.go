// Package operation
package operation

type DatabaseOperations struct {
	userOperation   UserOperationInterface
	flightOperation FlightOperationInterface
	deviceOperation DeviceOperationInterface
}

func NewDatabaseOperations(
	userOperation UserOperationInterface,
	flightOperation FlightOperationInterface,
	deviceOperation DeviceOperationInterface,
) *DatabaseOperations {
	return &DatabaseOperations{
		userOperation:   userOperation,
		flightOperation: flightOperation,
		deviceOperation: deviceOperation,
	}
}

func (db *DatabaseOperations) UserOperation() UserOperationInterface {
	return db.userOperation
}

func (db *DatabaseOperations) FlightOperation() FlightOperationInterface {
	return db.flightOperation
}

func (db *DatabaseOperations) DeviceOperation() DeviceOperationInterface {
	return db.deviceOperation
}
