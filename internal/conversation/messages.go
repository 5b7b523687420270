package conversation

const (
	CommandStart   = "/start"
	CommandHelp    = "/help"
	CommandWeather = "/weather"
	CommandCancel  = "/cancel"

	// NoneKeyword marks an empty list of intermediate cities.
	NoneKeyword = "none"
)

const (
	msgHelp = "Hi, I can help you get the weather forecast along a route.\n" +
		"My commands:\n\n" +
		"/weather - Get the weather forecast for a route\n" +
		"/cancel - Abandon the route you are entering\n" +
		"Enter the start city, the end city and any intermediate cities, and I will show you the forecast.\n\n" +
		"Try /help to see the list of available commands."
	msgIdleHint          = "Send /weather to plan a route."
	msgUnknownCommand    = "Unknown command. Send /help to see the list of available commands."
	msgNothingToCancel   = "There is no route in progress."
	msgCancelled         = "Route cancelled."
	msgEnterStartCity    = "Enter the start city:"
	msgChooseDays        = "Choose how many days of forecast you want:"
	msgChooseDaysAgain   = "Please choose the forecast length using the buttons below:"
	msgDaysSelected      = "You selected %d day(s) of forecast."
	msgEnterEndCity      = "Enter the end city:"
	msgSameStartAndEnd   = "Error: the start and end of the route coincide! Enter another end city:"
	msgEnterIntermediate = "Enter intermediate cities separated by spaces (if there are none, type 'none'):"
	msgIntermediateClash = "Error: intermediate cities must not match the start or end city. Try again:"
	msgCityNotFound      = "City '%s' was not found. Please try again."
	msgCityError         = "Error: %v. Please try again."
	msgGenericError      = "An error occurred: %v. Please try again."
	msgRouteFailed       = "An error occurred while processing the route: %v"
)
