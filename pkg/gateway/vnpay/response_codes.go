package vnpay

var responseMessages = map[string]string{
	"00": "Transaction successful",
	"07": "Amount debited. Transaction flagged as suspicious",
	"09": "Card or account is not registered for internet banking",
	"10": "Card or account verification failed more than 3 times",
	"11": "Payment window expired. Please try again",
	"12": "Card or account is locked",
	"13": "Incorrect OTP",
	"24": "Transaction cancelled by customer",
	"51": "Insufficient balance",
	"65": "Daily transaction limit exceeded",
	"75": "Issuing bank is under maintenance",
	"79": "Payment password entered incorrectly too many times",
	"99": "Other error",
}

func ResponseMessage(code string) string {
	if msg, ok := responseMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
